// This file is part of islacore.
//
// islacore is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// islacore is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with islacore.  If not, see <https://www.gnu.org/licenses/>.

package cmd

import "github.com/islacore/islacore/gpu/raster"

// Command IDs below are assigned positionally by this package rather than
// taken from real hardware register offsets (those were not available in
// the material this package is grounded on). Code outside this package
// does depend on the numeric values: hardware/mmio turns a register
// address into an ID as (addr-GpuBase)>>2, and gpu_test.go writes
// cmdColbufLoc and cmdBufferDim by number.
const (
	cmdIrqReqBase     = 0x000 // 4
	cmdFaceCulling    = 0x004
	cmdViewScaleH     = 0x005
	cmdViewStepH      = 0x006
	cmdViewScaleV     = 0x007
	cmdViewStepV      = 0x008
	cmdShdOutTotal    = 0x009
	cmdShdOutMapBase  = 0x00A // 7
	cmdTexDimBase     = 0x011 // 3
	cmdTexAddrBase    = 0x014 // 3
	cmdTexTypeBase    = 0x017 // 3
	cmdCombSrcBase    = 0x01A // 6
	cmdCombOperBase   = 0x020 // 6
	cmdCombModeBase   = 0x026 // 6
	cmdCombColorBase  = 0x02C // 6
	cmdDepcolMask     = 0x032
	cmdColbufWrite    = 0x033
	cmdDepbufWrite    = 0x034
	cmdDepbufFmt      = 0x035
	cmdColbufFmt      = 0x036
	cmdDepbufLoc      = 0x037
	cmdColbufLoc      = 0x038
	cmdBufferDim      = 0x039
	cmdAttrBase       = 0x03A
	cmdAttrFmtL       = 0x03B
	cmdAttrFmtH       = 0x03C
	cmdAttrOfsBase    = 0x03D // 12
	cmdAttrCfgLBase   = 0x049 // 12
	cmdAttrCfgHBase   = 0x055 // 12
	cmdAttrIdxList    = 0x061
	cmdAttrNumVerts   = 0x062
	cmdAttrFirstIdx   = 0x063
	cmdAttrDrawArrays = 0x064
	cmdAttrDrawElems  = 0x065
	cmdAttrFixedIdx   = 0x066
	cmdAttrFixedData  = 0x067
	cmdCmdSizeBase    = 0x068 // 2
	cmdCmdAddrBase    = 0x06A // 2
	cmdCmdJumpBase    = 0x06C // 2
	cmdPrimConfig     = 0x06E
	cmdPrimRestart    = 0x06F
	cmdVshBools       = 0x070
	cmdVshIntsBase    = 0x071 // 4
	cmdVshEntry       = 0x075
	cmdVshAttrIdsL    = 0x076
	cmdVshAttrIdsH    = 0x077
	cmdVshOutMask     = 0x078
	cmdVshFloatIdx    = 0x079
	cmdVshFloatData   = 0x07A
	cmdVshCodeIdx     = 0x07B
	cmdVshCodeData    = 0x07C
	cmdVshDescIdx     = 0x07D
	cmdVshDescData    = 0x07E
)

func (p *Processor) write(id uint32, mask, value uint32) {
	switch {
	case id >= cmdIrqReqBase && id < cmdIrqReqBase+4:
		// Interrupt request acknowledgement is not modeled here, and
		// command execution raises no line on the interrupt controller
		// in hardware/mmio.
		return
	case id == cmdFaceCulling:
		p.writeFaceCulling(mask, value)
	case id == cmdViewScaleH:
		p.writeViewScaleH(mask, value)
	case id == cmdViewStepH:
		p.writeViewStepH(mask, value)
	case id == cmdViewScaleV:
		p.writeViewScaleV(mask, value)
	case id == cmdViewStepV:
		p.writeViewStepV(mask, value)
	case id == cmdShdOutTotal:
		p.writeShdOutTotal(mask, value)
	case id >= cmdShdOutMapBase && id < cmdShdOutMapBase+7:
		p.writeShdOutMap(int(id-cmdShdOutMapBase), mask, value)
	case id >= cmdTexDimBase && id < cmdTexDimBase+3:
		p.writeTexDim(int(id-cmdTexDimBase), mask, value)
	case id >= cmdTexAddrBase && id < cmdTexAddrBase+3:
		p.writeTexAddr(int(id-cmdTexAddrBase), mask, value)
	case id >= cmdTexTypeBase && id < cmdTexTypeBase+3:
		p.writeTexType(int(id-cmdTexTypeBase), mask, value)
	case id >= cmdCombSrcBase && id < cmdCombSrcBase+6:
		p.writeCombSrc(int(id-cmdCombSrcBase), mask, value)
	case id >= cmdCombOperBase && id < cmdCombOperBase+6:
		p.writeCombOper(int(id-cmdCombOperBase), mask, value)
	case id >= cmdCombModeBase && id < cmdCombModeBase+6:
		p.writeCombMode(int(id-cmdCombModeBase), mask, value)
	case id >= cmdCombColorBase && id < cmdCombColorBase+6:
		p.writeCombColor(int(id-cmdCombColorBase), mask, value)
	case id == cmdDepcolMask:
		p.writeDepcolMask(mask, value)
	case id == cmdColbufWrite:
		p.writeColbufWrite(mask, value)
	case id == cmdDepbufWrite:
		p.writeDepbufWrite(mask, value)
	case id == cmdDepbufFmt:
		p.writeDepbufFmt(mask, value)
	case id == cmdColbufFmt:
		p.writeColbufFmt(mask, value)
	case id == cmdDepbufLoc:
		p.writeDepbufLoc(mask, value)
	case id == cmdColbufLoc:
		p.writeColbufLoc(mask, value)
	case id == cmdBufferDim:
		p.writeBufferDim(mask, value)
	case id == cmdAttrBase:
		p.attrBase = (p.attrBase &^ mask) | (value & mask)
	case id == cmdAttrFmtL:
		p.attrFmt = (p.attrFmt &^ uint64(mask)) | uint64(value&mask)
	case id == cmdAttrFmtH:
		p.attrFmt = (p.attrFmt &^ (uint64(mask) << 32)) | (uint64(value&mask) << 32)
		p.fixedDirty = true
	case id >= cmdAttrOfsBase && id < cmdAttrOfsBase+12:
		i := id - cmdAttrOfsBase
		p.attrOfs[i] = (p.attrOfs[i] &^ mask) | (value & mask)
	case id >= cmdAttrCfgLBase && id < cmdAttrCfgLBase+12:
		i := id - cmdAttrCfgLBase
		p.attrCfg[i] = (p.attrCfg[i] &^ uint64(mask)) | uint64(value&mask)
	case id >= cmdAttrCfgHBase && id < cmdAttrCfgHBase+12:
		i := id - cmdAttrCfgHBase
		p.attrCfg[i] = (p.attrCfg[i] &^ (uint64(mask) << 32)) | (uint64(value&mask) << 32)
	case id == cmdAttrIdxList:
		p.attrIdxList = (p.attrIdxList &^ mask) | (value & mask)
	case id == cmdAttrNumVerts:
		p.attrNumVerts = (p.attrNumVerts &^ mask) | (value & mask)
	case id == cmdAttrFirstIdx:
		p.attrFirstIdx = (p.attrFirstIdx &^ mask) | (value & mask)
	case id == cmdAttrDrawArrays:
		p.drawArrays()
	case id == cmdAttrDrawElems:
		p.drawElements()
	case id == cmdAttrFixedIdx:
		if mask&0xFF != 0 {
			p.attrFixedIdx = (value & 0xF) << 2
		}
	case id == cmdAttrFixedData:
		p.writeAttrFixedData(mask, value)
	case id >= cmdCmdSizeBase && id < cmdCmdSizeBase+2:
		i := id - cmdCmdSizeBase
		p.cmdSize[i] = (p.cmdSize[i] &^ mask) | (value & mask)
	case id >= cmdCmdAddrBase && id < cmdCmdAddrBase+2:
		i := id - cmdCmdAddrBase
		p.cmdAddr2[i] = (p.cmdAddr2[i] &^ mask) | (value & mask)
	case id >= cmdCmdJumpBase && id < cmdCmdJumpBase+2:
		i := id - cmdCmdJumpBase
		p.writeCmdJump(int(i), mask, value)
	case id == cmdPrimConfig:
		p.primConfig = (p.primConfig &^ (mask & 0x1030F)) | (value & mask & 0x1030F)
		switch (p.primConfig >> 8) & 0x3 {
		case 0x1:
			p.assembler.SetMode(raster.PrimStrip)
		case 0x2:
			p.assembler.SetMode(raster.PrimFan)
		default:
			p.assembler.SetMode(raster.PrimTriangles)
		}
	case id == cmdPrimRestart:
		p.assembler.Reset()
	case id == cmdVshBools:
		p.writeVshBools(mask, value)
	case id >= cmdVshIntsBase && id < cmdVshIntsBase+4:
		p.writeVshInts(int(id-cmdVshIntsBase), mask, value)
	case id == cmdVshEntry:
		p.writeVshEntry(mask, value)
	case id == cmdVshAttrIdsL:
		p.vshAttrIds = (p.vshAttrIds &^ uint64(mask)) | uint64(value&mask)
	case id == cmdVshAttrIdsH:
		p.vshAttrIds = (p.vshAttrIds &^ (uint64(mask) << 32)) | (uint64(value&mask) << 32)
	case id == cmdVshOutMask:
		p.vshOutMask = (p.vshOutMask &^ (mask & 0x7FFFFFF)) | (value & mask & 0x7FFFFFF)
		p.updateOutMap()
	case id == cmdVshFloatIdx:
		if mask&0xFF != 0 {
			p.vshFloatIdx = (value & 0xFF) << 2
		}
		if mask&0xFF000000 != 0 {
			p.vshFloat32 = value&(1<<31) != 0
		}
	case id == cmdVshFloatData:
		p.writeVshFloatData(mask, value)
	case id == cmdVshCodeIdx:
		p.vshCodeIdx = (p.vshCodeIdx &^ mask) | (value & mask)
	case id == cmdVshCodeData:
		p.shader.WriteCode(p.vshCodeIdx&0x1FF, value&mask)
		p.vshCodeIdx++
	case id == cmdVshDescIdx:
		p.vshDescIdx = (p.vshDescIdx &^ mask) | (value & mask)
	case id == cmdVshDescData:
		p.shader.WriteDesc(p.vshDescIdx&0x7F, value&mask)
		p.vshDescIdx++
	default:
		p.logUnknown(id)
	}
}

func (p *Processor) writeFaceCulling(mask, value uint32) {
	mask &= 0x3
	p.faceCulling = (p.faceCulling &^ mask) | (value & mask)
	cfg := p.raster.Config()
	switch p.faceCulling {
	case 0x1:
		cfg.CullMode = raster.CullFront
	case 0x2:
		cfg.CullMode = raster.CullBack
	default:
		cfg.CullMode = raster.CullNone
	}
	p.raster.SetConfig(cfg)
}

func (p *Processor) writeViewScaleH(mask, value uint32) {
	p.viewScaleH = (p.viewScaleH &^ mask) | (value & mask)
	cfg := p.raster.Config()
	cfg.ViewScaleH = asFloat(flt24e7to32e8(p.viewScaleH))
	p.raster.SetConfig(cfg)
}

func (p *Processor) writeViewStepH(mask, value uint32) {
	p.viewStepH = (p.viewStepH &^ mask) | (value & mask)
	cfg := p.raster.Config()
	cfg.ViewStepH = asFloat(flt32e7to32e8(p.viewStepH))
	p.raster.SetConfig(cfg)
}

func (p *Processor) writeViewScaleV(mask, value uint32) {
	p.viewScaleV = (p.viewScaleV &^ mask) | (value & mask)
	cfg := p.raster.Config()
	cfg.ViewScaleV = asFloat(flt24e7to32e8(p.viewScaleV))
	p.raster.SetConfig(cfg)
}

func (p *Processor) writeViewStepV(mask, value uint32) {
	p.viewStepV = (p.viewStepV &^ mask) | (value & mask)
	cfg := p.raster.Config()
	cfg.ViewStepV = asFloat(flt32e7to32e8(p.viewStepV))
	p.raster.SetConfig(cfg)
}

func (p *Processor) writeShdOutTotal(mask, value uint32) {
	mask &= 0x7
	p.shdOutTotal = (p.shdOutTotal &^ mask) | (value & mask)
	p.updateOutMap()
}

func (p *Processor) writeShdOutMap(i int, mask, value uint32) {
	mask &= 0x1F1F1F1F
	p.shdOutMap[i] = (p.shdOutMap[i] &^ mask) | (value & mask)
	p.updateOutMap()
}

func (p *Processor) writeTexDim(i int, mask, value uint32) {
	mask &= 0x7FFFFFF
	p.texDim[i] = (p.texDim[i] &^ mask) | (value & mask)
	cfg := p.raster.Config()
	cfg.Textures[i].Height = int(p.texDim[i] >> 16)
	cfg.Textures[i].Width = int(p.texDim[i] & 0x7FF)
	p.raster.SetConfig(cfg)
}

func (p *Processor) writeTexAddr(i int, mask, value uint32) {
	mask &= 0xFFFFFFF
	p.texAddr[i] = (p.texAddr[i] &^ mask) | (value & mask)
	cfg := p.raster.Config()
	cfg.Textures[i].Addr = p.texAddr[i] << 3
	cfg.Textures[i].Enable = true
	p.raster.SetConfig(cfg)
}

func (p *Processor) writeTexType(i int, mask, value uint32) {
	mask &= 0xF
	p.texType[i] = (p.texType[i] &^ mask) | (value & mask)
	cfg := p.raster.Config()
	if p.texType[i] < 0xE {
		cfg.Textures[i].Format = raster.TextureFormat(p.texType[i])
	}
	p.raster.SetConfig(cfg)
}

var combSrcMap = map[uint32]raster.CombineSrc{
	0x0: raster.SrcPrimary,
	0x3: raster.SrcTex0,
	0x4: raster.SrcTex1,
	0x5: raster.SrcTex2,
	0xE: raster.SrcConstant,
	0xF: raster.SrcPrevious,
}

func (p *Processor) writeCombSrc(i int, mask, value uint32) {
	mask &= 0xFFF0FFF
	p.combSrc[i] = (p.combSrc[i] &^ mask) | (value & mask)
	cfg := p.raster.Config()
	for j := 0; j < 6; j++ {
		shift := uint((j + boolToInt(j > 2)) * 4)
		src, ok := combSrcMap[(p.combSrc[i]>>shift)&0xF]
		if !ok {
			src = raster.SrcPrevious
		}
		if j < 3 {
			cfg.Combiner.Stages[i].RGBSrc[j] = src
		} else {
			cfg.Combiner.Stages[i].AlphaSrc[j-3] = src
		}
	}
	p.raster.SetConfig(cfg)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (p *Processor) writeCombOper(i int, mask, value uint32) {
	mask &= 0xFFFFFF
	p.combOper[i] = (p.combOper[i] &^ mask) | (value & mask)
	cfg := p.raster.Config()
	for j := 0; j < 6; j++ {
		oper := raster.OperFunc((p.combOper[i] >> uint(j*4)) & 0xF)
		if j < 3 {
			cfg.Combiner.Stages[i].RGBOper[j] = oper
		} else {
			cfg.Combiner.Stages[i].AlphaOper[j-3] = oper
		}
	}
	p.raster.SetConfig(cfg)
}

func (p *Processor) writeCombMode(i int, mask, value uint32) {
	mask &= 0xF000F
	p.combMode[i] = (p.combMode[i] &^ mask) | (value & mask)
	cfg := p.raster.Config()
	rgbMode := (p.combMode[i]) & 0xF
	alphaMode := (p.combMode[i] >> 16) & 0xF
	if rgbMode < 0xA {
		cfg.Combiner.Stages[i].RGBMode = raster.CalcMode(rgbMode)
	}
	if alphaMode < 0xA {
		cfg.Combiner.Stages[i].AlphaMode = raster.CalcMode(alphaMode)
	}
	cfg.Combiner.Count = 6
	p.raster.SetConfig(cfg)
}

func (p *Processor) writeCombColor(i int, mask, value uint32) {
	p.combColor[i] = (p.combColor[i] &^ mask) | (value & mask)
	cfg := p.raster.Config()
	c := p.combColor[i]
	cfg.Combiner.Stages[i].Constant = raster.Vec4{
		float32((c>>0)&0xFF) / 255,
		float32((c>>8)&0xFF) / 255,
		float32((c>>16)&0xFF) / 255,
		float32((c>>24)&0xFF) / 255,
	}
	p.raster.SetConfig(cfg)
}

// writeDepcolMask handles the combined depth/color test-and-write enable
// register: bit 0 enables the depth test (bypassed to DepthAlways when
// clear), bits 4-6 select the comparison function, bits 8-11 are a
// per-channel color write mask (ANDed against the separate colbufWrite
// register), and bit 12 enables depth writeback.
func (p *Processor) writeDepcolMask(mask, value uint32) {
	mask &= 0x1F71
	p.depcolMask = (p.depcolMask &^ mask) | (value & mask)
	cfg := p.raster.Config()
	if p.depcolMask&0x1 != 0 {
		cfg.DepthFunc = raster.DepthFunc((p.depcolMask >> 4) & 0x7)
	} else {
		cfg.DepthFunc = raster.DepthAlways
	}
	cfg.ColorWrite = (p.colbufWrite & ((p.depcolMask >> 8) & 0xF)) != 0
	cfg.DepthWrite = (p.depbufWrite & ((p.depcolMask >> 12) & 0x1)) != 0
	p.raster.SetConfig(cfg)
}

func (p *Processor) writeColbufWrite(mask, value uint32) {
	mask &= 0xF
	p.colbufWrite = (p.colbufWrite &^ mask) | (value & mask)
	cfg := p.raster.Config()
	cfg.ColorWrite = (p.colbufWrite & ((p.depcolMask >> 8) & 0xF)) != 0
	p.raster.SetConfig(cfg)
}

func (p *Processor) writeDepbufWrite(mask, value uint32) {
	mask &= 0x1
	p.depbufWrite = (p.depbufWrite &^ mask) | (value & mask)
	cfg := p.raster.Config()
	cfg.DepthWrite = (p.depbufWrite & ((p.depcolMask >> 12) & 0x1)) != 0
	p.raster.SetConfig(cfg)
}

func (p *Processor) writeDepbufFmt(mask, value uint32) {
	mask &= 0x3
	p.depbufFmt = (p.depbufFmt &^ mask) | (value & mask)
	cfg := p.raster.Config()
	switch p.depbufFmt {
	case 0x0:
		cfg.DepthFormat = raster.DepthFmt16
	case 0x2:
		cfg.DepthFormat = raster.DepthFmt24
	case 0x3:
		cfg.DepthFormat = raster.DepthFmt24Stencil8
	}
	p.raster.SetConfig(cfg)
}

func (p *Processor) writeColbufFmt(mask, value uint32) {
	mask &= 0x70003
	p.colbufFmt = (p.colbufFmt &^ mask) | (value & mask)
	cfg := p.raster.Config()
	switch p.colbufFmt {
	case 0x00002:
		cfg.ColorFormat = raster.ColorRGBA8
	case 0x20000:
		cfg.ColorFormat = raster.ColorRGB5A1
	case 0x30000:
		cfg.ColorFormat = raster.ColorRGB565
	case 0x40000:
		cfg.ColorFormat = raster.ColorRGBA4
	}
	p.raster.SetConfig(cfg)
}

func (p *Processor) writeDepbufLoc(mask, value uint32) {
	mask &= 0xFFFFFFF
	p.depbufLoc = (p.depbufLoc &^ mask) | (value & mask)
	cfg := p.raster.Config()
	cfg.DepthAddr = (p.depbufLoc &^ 0x7) << 3
	p.raster.SetConfig(cfg)
}

func (p *Processor) writeColbufLoc(mask, value uint32) {
	mask &= 0xFFFFFFF
	p.colbufLoc = (p.colbufLoc &^ mask) | (value & mask)
	cfg := p.raster.Config()
	cfg.ColorAddr = (p.colbufLoc &^ 0x7) << 3
	p.raster.SetConfig(cfg)
}

func (p *Processor) writeBufferDim(mask, value uint32) {
	mask &= 0x13FF7FF
	p.bufferDim = (p.bufferDim &^ mask) | (value & mask)
	cfg := p.raster.Config()
	cfg.BufWidth = int(p.bufferDim & 0x7FF)
	cfg.BufHeight = int((p.bufferDim>>12)&0x3FF) + 1
	cfg.FlipY = p.bufferDim&(1<<24) != 0
	p.raster.SetConfig(cfg)
}

func (p *Processor) writeAttrFixedData(mask, value uint32) {
	idx := p.attrFixedIdx
	if idx == (0xF << 2) {
		return
	}
	p.attrFixedData[idx>>2][idx&0x3] = value & mask
	idx++
	if idx&0x3 == 0x3 {
		idx &^= 0x3
	}
	p.attrFixedIdx = idx
	p.fixedDirty = true
}

func (p *Processor) writeCmdJump(i int, mask, value uint32) {
	stopped := p.cmdAddr == 0xFFFFFFFF
	p.cmdAddr = p.cmdAddr2[i] << 3
	p.cmdEnd = (p.cmdAddr2[i] + p.cmdSize[i]) << 3
	if stopped {
		p.RunCommands()
	}
}

func (p *Processor) writeVshBools(mask, value uint32) {
	mask &= 0x1FFFFFF
	p.vshBoolsReg = (p.vshBoolsReg &^ mask) | (value & mask)
	for i := 0; i < 16; i++ {
		p.shader.SetBool(i, p.vshBoolsReg&(1<<uint(i)) != 0)
	}
}

func (p *Processor) writeVshInts(i int, mask, value uint32) {
	mask &= 0xFFFFFF
	p.vshIntsReg[i] = (p.vshIntsReg[i] &^ mask) | (value & mask)
	for j := 0; j < 3; j++ {
		p.shader.SetInt(i, j, byte(p.vshIntsReg[i]>>uint(j*8)))
	}
}

func (p *Processor) writeVshEntry(mask, value uint32) {
	mask &= 0x1FF01FF
	p.vshEntryReg = (p.vshEntryReg &^ mask) | (value & mask)
	p.shader.SetEntry(uint16(p.vshEntryReg), uint16(p.vshEntryReg>>16))
}

func (p *Processor) writeVshFloatData(mask, value uint32) {
	p.vshFloatData[^p.vshFloatIdx&0x3] = value & mask
	if !p.vshFloat32 && p.vshFloatIdx&0x3 == 0x2 {
		p.vshFloatData[0] = flt24e7to32e8(p.vshFloatData[1])
		p.vshFloatData[1] = flt24e7to32e8((p.vshFloatData[2] << 8) | (p.vshFloatData[1] >> 24))
		p.vshFloatData[2] = flt24e7to32e8((p.vshFloatData[3] << 16) | (p.vshFloatData[2] >> 16))
		p.vshFloatData[3] = flt24e7to32e8(p.vshFloatData[3] >> 8)
		p.vshFloatIdx++
	}
	if p.vshFloatIdx < (96<<2) && p.vshFloatIdx&0x3 == 0x3 {
		reg := int(p.vshFloatIdx >> 2)
		for i := 0; i < 4; i++ {
			p.shader.SetFloat(reg, i, asFloat(p.vshFloatData[i]))
		}
	}
	p.vshFloatIdx++
}
